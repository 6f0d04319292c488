/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package version

import (
	"net/http"
	"strings"
)

// DefaultProduct is the product token used when none is supplied
const DefaultProduct = "Tinker"

// UserAgent wraps the (possibly nil) transport so that requests identify the
// supplied product, current version and optional comment
func UserAgent(product, comment string, transport http.RoundTripper) http.RoundTripper {
	if product == "" {
		product = DefaultProduct
	}
	return &Transport{
		UserAgent: userAgentString(product, comment),
		Base:      transport,
	}
}

// Transport sets the `User-Agent` header
type Transport struct {
	// UserAgent string to use, computed from the default product if unset
	UserAgent string
	// Base transport to use, uses the system default if nil
	Base http.RoundTripper
}

// RoundTrip sets the incoming request header and delegates to the base transport
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ua := t.UserAgent
	if ua == "" {
		ua = userAgentString(DefaultProduct, "")
	}

	// Do not modify the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", ua)

	if t.Base != nil {
		return t.Base.RoundTrip(req)
	}
	return http.DefaultTransport.RoundTrip(req)
}

func userAgentString(product, comment string) string {
	ua := strings.Builder{}
	ua.WriteString(product)
	ua.WriteRune('/')
	ua.WriteString(strings.TrimPrefix(Version, "v"))

	var comments []string
	if strings.Contains(Version, "-") && BuildMetadata != "" {
		comments = append(comments, BuildMetadata)
	}

	comment = strings.TrimSpace(comment)
	comment = strings.TrimSuffix(strings.TrimPrefix(comment, "("), ")")
	if comment = strings.TrimSpace(comment); comment != "" {
		comments = append(comments, comment)
	}

	if len(comments) > 0 {
		ua.WriteString(" (" + strings.Join(comments, "; ") + ")")
	}
	return ua.String()
}
