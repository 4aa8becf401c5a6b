package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// MaxPageSize caps page_size.
const MaxPageSize = 250

var ErrInvalidPageToken = errors.New("invalid_page_token")

// Pagination is bound from the query string. A zero PageSize disables paging.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type Cursor struct {
	ID string `json:"id,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidPageToken
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil || cursor.ID == "" {
		return nil, ErrInvalidPageToken
	}
	return &cursor, nil
}

// Paginate slices an ordered collection after the record named by the page token.
// PageInfo is nil when paging is disabled.
func Paginate[T any](data []T, page Pagination, idOf func(T) string) ([]T, *PageInfo, error) {
	if page.PageSize <= 0 && page.PageToken == "" {
		return data, nil, nil
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	start := 0
	if page.PageToken != "" {
		cursor, err := DecodeCursor(page.PageToken)
		if err != nil {
			return nil, nil, err
		}
		start = -1
		for i, item := range data {
			if idOf(item) == cursor.ID {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, nil, ErrInvalidPageToken
		}
	}

	end := start + limit
	if end > len(data) {
		end = len(data)
	}
	window := data[start:end]

	info := &PageInfo{HasMore: end < len(data)}
	if info.HasMore && len(window) > 0 {
		token, err := EncodeCursor(Cursor{ID: idOf(window[len(window)-1])})
		if err != nil {
			return nil, nil, err
		}
		info.NextPageToken = token
	}
	return window, info, nil
}
