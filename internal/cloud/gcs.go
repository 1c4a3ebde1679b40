// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file, `gcs.go`, holds the Cloud Storage helpers: URL signing through
// the IAM Credentials API and the GCS-backed file store factory.
package cloud

import (
	"context"
	"fmt"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/storage/gcs"
)

// IAMSigner returns a gcs.SignFunc that signs with the service account email
// through IAM SignBlob. No local key is needed; the caller only requires the
// Service Account Token Creator role on that account.
func IAMSigner(client *credentials.IamCredentialsClient, email string) gcs.SignFunc {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		req := &credentialspb.SignBlobRequest{
			Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", email),
			Payload: payload,
		}
		resp, err := client.SignBlob(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
		}
		return resp.SignedBlob, nil
	}
}

// NewGCSFiles builds the bucket-backed file store from the configuration.
func NewGCSFiles(config *Config, clients *ServiceClients) *gcs.Files {
	files := &gcs.Files{
		StorageClient: clients.StorageClient,
		Bucket:        config.Files.Bucket,
		Prefix:        config.Files.Prefix,
		SignerEmail:   config.Application.SignerServiceAccountEmail,
		SignedURLTTL:  config.Files.SignedURLTTL(),
	}
	if clients.IAMClient != nil && files.SignerEmail != "" {
		files.Sign = IAMSigner(clients.IAMClient, files.SignerEmail)
	}
	return files
}
