/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package metastore

import "fmt"

// UnsupportedProtocolVersionError means adapter selection found no protocol
// adapter matching the server. Silent misinterpretation of metadata is worse
// than an explicit refusal, so there is no fallback adapter.
type UnsupportedProtocolVersionError struct {
	Version string
}

func (e *UnsupportedProtocolVersionError) Error() string {
	return fmt.Sprintf("unsupported metastore protocol version %q", e.Version)
}

// TransportError wraps an underlying RPC failure with the operation that hit
// it, including failures during session shutdown.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("metastore transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// transportf is the wrapping applied to every raw Thrift error.
func transportf(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
