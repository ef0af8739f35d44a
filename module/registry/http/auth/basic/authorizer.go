// Copyright Project Harbor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package basic

import (
	"net/http"
	"net/url"

	"github.com/WS-QA/OSSGadget/module/registry/http/modifier"
)

// NewAuthorizer return a basic authorizer scoped to the host of endpoint
func NewAuthorizer(endpoint, username, password string) modifier.Modifier {
	a := &authorizer{
		username: username,
		password: password,
	}
	if u, err := url.Parse(endpoint); err == nil {
		a.host = u.Host
	}
	return a
}

type authorizer struct {
	host     string
	username string
	password string
}

func (a *authorizer) Modify(req *http.Request) error {
	if a.username == "" || (a.host != "" && req.URL.Host != a.host) {
		return nil
	}
	req.SetBasicAuth(a.username, a.password)
	return nil
}
