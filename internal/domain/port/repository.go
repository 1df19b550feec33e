// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// ReaderWriter is the complete entity storage used by the admin screens.
// Implemented by the NATS KV storage (production) and the mock repository (testing).
type ReaderWriter interface {
	MailingListReader
	MailingListWriter
	SubscriptionReader

	// IsReady checks if the storage is ready to serve requests
	IsReady(ctx context.Context) error
}
