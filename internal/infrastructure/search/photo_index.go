package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
)

const (
	requestTimeout = 3 * time.Second
	maxResults     = 50
)

// PhotoIndex keeps photo titles and descriptions searchable in Elasticsearch.
type PhotoIndex struct {
	ES    *elasticsearch.Client
	Index string
}

var _ application.PhotoIndex = (*PhotoIndex)(nil)

func NewPhotoIndex(es *elasticsearch.Client, index string) *PhotoIndex {
	return &PhotoIndex{ES: es, Index: index}
}

type photoDoc struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	OwnerName   string `json:"owner_name,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (x *PhotoIndex) Index(ctx context.Context, p *entity.Photo) error {
	b, err := json.Marshal(photoDoc{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		OwnerName:   p.OwnerName,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Remove deletes the document. A missing document is not an error.
func (x *PhotoIndex) Remove(ctx context.Context, photoID string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: photoID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and description and returns ids by score.
func (x *PhotoIndex) Search(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 || limit > maxResults {
		limit = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size":    limit,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// index not created yet
		if res.StatusCode == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
