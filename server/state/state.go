package state

import (
	"github.com/easelhq/easel/config"
	"github.com/easelhq/easel/storage/catalog"
	"github.com/easelhq/easel/storage/media"
)

type EaselState struct {
	Cfg     *config.Config
	Catalog catalog.Store
	Media   media.Store
}
