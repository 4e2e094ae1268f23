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

import (
	"context"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore/hive"
)

// Adapter names accepted as an explicit version override.
const (
	VersionSuperset = "superset"
	VersionCompat   = "compat"
)

// Open probes an established metastore connection for its protocol revision
// and returns the matching adapter. versionOverride skips probing for
// servers that misreport their version ("superset" or "compat"); leave it
// empty to negotiate. An unknown revision is an explicit refusal, never a
// guessed adapter.
func Open(ctx context.Context, trans thrift.TTransport, pf thrift.TProtocolFactory, versionOverride string, logger *zap.Logger) (Client, error) {
	return open(ctx, hive.NewClient(trans, pf), versionOverride, logger)
}

func open(ctx context.Context, w wire, versionOverride string, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	name := versionOverride
	probed := ""
	if name == "" {
		v, err := w.GetVersion(ctx)
		if err != nil {
			return nil, transportf("probe server version", err)
		}
		probed = v
		name = adapterForVersion(v)
		logger.Info("probed metastore protocol version",
			zap.String("server_version", v),
			zap.String("adapter", name))
	}

	switch name {
	case VersionSuperset:
		return newSupersetClient(w), nil
	case VersionCompat:
		return newCompatClient(w), nil
	default:
		if probed != "" {
			return nil, &UnsupportedProtocolVersionError{Version: probed}
		}
		return nil, &UnsupportedProtocolVersionError{Version: versionOverride}
	}
}

// adapterForVersion maps a reported server version line to an adapter name.
// The 2.x and 3.x metastore schemas are both covered by the superset
// definition; 0.x and 1.x lines predate it.
func adapterForVersion(version string) string {
	v := strings.TrimSpace(version)
	switch {
	case strings.HasPrefix(v, "2.") || strings.HasPrefix(v, "3."):
		return VersionSuperset
	case strings.HasPrefix(v, "0.") || strings.HasPrefix(v, "1."):
		return VersionCompat
	default:
		return ""
	}
}
