package session

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// builtinFolders are Chrome's fixed top-level folders. They are containers,
// not user labels.
var builtinFolders = map[string]bool{
	"Bookmarks bar":    true,
	"Other bookmarks":  true,
	"Mobile bookmarks": true,
}

// DecodeChromeBookmarks decodes a Chrome Bookmarks file. Each bookmark is
// labelled with its nearest named folder below the roots; bookmarks that
// sit directly in a root folder have no label and are dropped.
func DecodeChromeBookmarks(data []byte) ([]model.RawLink, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: bookmarks file is not valid JSON", model.ErrDecodeCorrupt)
	}

	links := make([]model.RawLink, 0)
	gjson.GetBytes(data, "roots").ForEach(func(_, root gjson.Result) bool {
		if !root.IsObject() {
			// e.g. "sync_transaction_version"
			return true
		}
		root.Get("children").ForEach(func(_, child gjson.Result) bool {
			walkBookmarks(child, "", &links)
			return true
		})
		return true
	})
	return links, nil
}

func walkBookmarks(node gjson.Result, folder string, links *[]model.RawLink) {
	if children := node.Get("children"); children.Exists() {
		name := node.Get("name").String()
		if name != "" && node.Get("id").String() != "0" && !builtinFolders[name] {
			folder = name
		}
		children.ForEach(func(_, child gjson.Result) bool {
			walkBookmarks(child, folder, links)
			return true
		})
		return
	}

	url := node.Get("url").String()
	if url == "" || folder == "" {
		return
	}
	*links = append(*links, model.RawLink{
		URL:    url,
		Group:  folder,
		Source: model.SourceBookmark,
	})
}
