package catalog

import (
	"context"
	"log"

	"github.com/easelhq/easel/asset"
)

type NoopCatalogStore struct{}

func (cs *NoopCatalogStore) Save(ctx context.Context, entry Entry) error {
	log.Println("Received no-op save request - dumping request information:")
	log.Printf("Id: %v", entry.Asset.ID)
	log.Printf("Name: %v", entry.Asset.Name)
	log.Printf("Type: %v", entry.Asset.Type)
	log.Printf("Format: %v", entry.Asset.Format)
	log.Printf("Project: %v", entry.Asset.ProjectID)
	log.Printf("Location: %v", entry.Location)
	log.Printf("Sha256: %v", entry.SHA256)
	return nil
}

func (cs *NoopCatalogStore) Get(ctx context.Context, id string) (*Entry, error) {
	log.Println("Received no-op get request - dumping request information and generating bogus response")
	log.Printf("Id: %v", id)
	return &Entry{
		Asset: asset.Asset{
			ID:     id,
			Name:   "https://noop.example.org/media/bogus.png",
			Format: "png",
			Type:   asset.TypeImage,
		},
		Location: "https://noop.example.org/media/bogus.png",
	}, nil
}

func (cs *NoopCatalogStore) List(ctx context.Context, projectID string) ([]Entry, error) {
	log.Println("Received no-op list request - dumping request information:")
	log.Printf("Project: %v", projectID)
	return []Entry{}, nil
}

func (cs *NoopCatalogStore) Delete(ctx context.Context, id string) error {
	log.Println("Received no-op delete request - dumping request information:")
	log.Printf("Id: %v", id)
	return nil
}
