// Copyright (c) 2025 Behrad Moradi
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gdrive provides a Google Drive implementation of the core
// storage.Uploader port. Check-in inspection photos are stored in a
// dedicated Drive folder under a service account; the persisted
// reference is the stable drive.google.com content URL.
package gdrive

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Uploader stores objects as files in one Google Drive folder.
type Uploader struct {
	client   *drive.Service
	folderID string
}

// New instantiates a Drive uploader writing into the folderID folder,
// authenticating with the service account credentials found at the
// credentialsPath path.
func New(
	ctx context.Context, credentialsPath, folderID string,
) (*Uploader, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}
	client, err := drive.NewService(
		ctx, option.WithCredentialsFile(credentialsPath),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &Uploader{client: client, folderID: folderID}, nil
}

// Upload stores the data bytes as a file named name in the configured
// folder and returns its content URL.
func (u *Uploader) Upload(
	ctx context.Context, name string, data []byte,
) (string, error) {
	if name == "" {
		return "", fmt.Errorf("object name is required")
	}
	f := &drive.File{
		Name:    name,
		Parents: []string{u.folderID},
	}
	created, err := u.client.Files.Create(f).
		Context(ctx).
		Media(bytes.NewReader(data)).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading %q to drive: %w", name, err)
	}
	return fmt.Sprintf(
		"https://drive.google.com/uc?id=%s", created.Id,
	), nil
}
