package catalog

import (
	storageutil "github.com/easelhq/easel/storage/util"
)

// deriveTableName constructs the assets table name from the configured
// prefix. A nil prefix defaults to "easel"; an empty string drops the
// prefix entirely.
func deriveTableName(prefix *string) string {
	p := "easel"
	if prefix != nil {
		p = *prefix
	}

	return storageutil.DeriveTableName(p, "assets")
}
