package assets

import (
	"io"
	"net/http"

	"github.com/easelhq/easel/asset"
	"github.com/easelhq/easel/server/handler/common"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/server/util"
)

func handleFileUpload(st *state.EaselState, w http.ResponseWriter, r *http.Request) {
	maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
	maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
	values, file, header, _, ok := util.ParseMultipartWithFirstFile(w, r, maxMemory, maxSize, []string{"file"}, true)
	if !ok {
		return
	}
	defer file.Close()

	projectID, _ := values["project_id"].(string)
	if projectID == "" {
		resp.WriteInvalidRequest(w, "project_id is required")
		return
	}

	description, _ := values["description"].(string)

	data, err := io.ReadAll(file)
	if err != nil {
		common.LogAndWriteError(w, r, "read upload", err)
		return
	}

	name, mediaType := resolveNameAndType(header.Filename, header.Header.Get("Content-Type"), data)

	entry, err := storeAsset(r.Context(), st, assetParams{
		name:        name,
		mediaType:   mediaType,
		data:        data,
		projectID:   projectID,
		description: description,
		source:      asset.FileSource(asset.FileInfo{Name: name, Type: mediaType, Size: int64(len(data))}),
	})
	if err != nil {
		common.LogAndWriteError(w, r, "upload asset", err)
		return
	}

	resp.WriteCreatedObject(w, assetLocation(st.Cfg.Server.PublicUrl, entry.Asset.ID), entry)
}
