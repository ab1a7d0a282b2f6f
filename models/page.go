package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Page mirrors the backend's page envelope. It is passed through untouched.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func (p *Page[T]) HasNext() bool { return p != nil && p.Next != nil && *p.Next != "" }

type PageParams struct {
	Page     int
	PageSize int
}

func (p PageParams) Query() map[string]string {
	q := map[string]string{}
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.PageSize > 0 {
		q["page_size"] = strconv.Itoa(p.PageSize)
	}
	return q
}

// List decodes lookup endpoints that answer with either a bare array or a page envelope.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page Page[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*l = page.Results
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}
