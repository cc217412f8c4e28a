// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package util

import (
	"strings"
)

const (
	dot        = "."
	dotEncoded = "-dot-"
)

// EncodeName makes a broker supplied server name usable as a compute
// engine resource name. Dots are not allowed by the provider.
func EncodeName(name string) string {
	return strings.ReplaceAll(name, dot, dotEncoded)
}

// DecodeName reverses EncodeName.
func DecodeName(name string) string {
	return strings.ReplaceAll(name, dotEncoded, dot)
}

// IsReversibleName reports whether DecodeName(EncodeName(name)) == name.
// Names that already contain the encoded form are not.
func IsReversibleName(name string) bool {
	return !strings.Contains(name, dotEncoded)
}

// ResourceName returns the last segment of a compute engine resource URL
// such as a targetLink or a zone link.
func ResourceName(link string) string {
	link = strings.TrimRight(link, "/")
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		return link[idx+1:]
	}
	return link
}

// SanitizeLogEntry strips line breaks from user supplied values before
// they end up in a log line.
func SanitizeLogEntry(entry string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(entry)
}
