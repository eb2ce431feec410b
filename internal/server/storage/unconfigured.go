package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

// Unconfigured stands in for the object store when no bucket is set.
type Unconfigured struct{}

func (Unconfigured) IsConfigured() bool { return false }

func (Unconfigured) Put(context.Context, string, []byte, string) error {
	return common.ErrNotConfigured
}

func (Unconfigured) Delete(context.Context, string) error {
	return common.ErrNotConfigured
}

func (Unconfigured) SignedReadURL(context.Context, string, time.Duration) (string, error) {
	return "", common.ErrNotConfigured
}
