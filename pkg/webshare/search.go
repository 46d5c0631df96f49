package webshare

import (
	"context"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	pageSize = 100
	// maxOffset bounds runaway pagination when the index keeps returning
	// junk for a broad query.
	maxOffset = 1000
	// lowYieldThreshold ends pagination when a page contributes fewer new
	// video files than this.
	lowYieldThreshold = 10
)

// File is one search hit: an opaque identifier, the uploader-chosen
// filename and the byte size.
type File struct {
	Ident string
	Name  string
	Size  int64
}

type searchResponse struct {
	Status string     `xml:"status"`
	Files  []fileItem `xml:"file"`
}

type fileItem struct {
	Ident string `xml:"ident"`
	Name  string `xml:"name"`
	Size  string `xml:"size"`
}

func (f fileItem) toFile() File {
	size, _ := strconv.ParseInt(f.Size, 10, 64)
	return File{Ident: f.Ident, Name: f.Name, Size: size}
}

// videoExtensions are the only filename suffixes accepted at ingestion.
var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
}

func isVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// Search runs one query against the index, paginating until maxResults is
// reached, a page yields too few new video files, or the offset ceiling is
// hit. Results are deduplicated by identifier and filtered to video files.
// A failed page truncates the results rather than failing the query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]File, error) {
	token, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var files []File
	seen := make(map[string]bool)

	for offset := 0; offset < maxOffset && len(files) < maxResults; offset += pageSize {
		var resp searchResponse
		err := c.postForm(ctx, "/search/", url.Values{
			"wst":    {token},
			"what":   {query},
			"limit":  {strconv.Itoa(pageSize)},
			"offset": {strconv.Itoa(offset)},
			"sort":   {"recent"},
		}, &resp)
		if err != nil {
			if ctx.Err() != nil {
				return files, ctx.Err()
			}
			if c.log != nil {
				c.log.Warn("search page failed, truncating", "query", query, "offset", offset, "error", err)
			}
			break
		}
		if resp.Status != "OK" {
			break
		}

		found := 0
		for _, item := range resp.Files {
			if item.Ident == "" || seen[item.Ident] {
				continue
			}
			if !isVideoFile(item.Name) {
				continue
			}
			files = append(files, item.toFile())
			seen[item.Ident] = true
			found++
			if len(files) >= maxResults {
				break
			}
		}

		// A thin page means the index has run out of relevant hits.
		if found < lowYieldThreshold {
			break
		}
	}

	if c.log != nil {
		c.log.Debug("search complete", "query", query, "results", len(files),
			"duration_ms", time.Since(start).Milliseconds())
	}
	return files, nil
}

type fileInfoResponse struct {
	Status string `xml:"status"`
	Name   string `xml:"name"`
	Size   string `xml:"size"`
}

// FileInfo fetches metadata for a single file identifier.
func (c *Client) FileInfo(ctx context.Context, ident string) (*File, error) {
	token, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	var resp fileInfoResponse
	err = c.postForm(ctx, "/file_info/", url.Values{
		"wst":   {token},
		"ident": {ident},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "OK" || resp.Name == "" {
		return nil, ErrNotFound
	}

	size, _ := strconv.ParseInt(resp.Size, 10, 64)
	return &File{Ident: ident, Name: resp.Name, Size: size}, nil
}

type fileLinkResponse struct {
	Status string `xml:"status"`
	Link   string `xml:"link"`
}

// FileLink resolves a file identifier into a direct download URL.
func (c *Client) FileLink(ctx context.Context, ident string) (string, error) {
	token, err := c.ensureSession(ctx)
	if err != nil {
		return "", err
	}

	var resp fileLinkResponse
	err = c.postForm(ctx, "/file_link/", url.Values{
		"wst":   {token},
		"ident": {ident},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Status != "OK" || resp.Link == "" {
		return "", ErrNotFound
	}
	return resp.Link, nil
}

// identPatterns extract a file identifier from share links, in order of
// specificity.
var identPatterns = []*regexp.Regexp{
	regexp.MustCompile(`webshare\.cz/[#/]*file/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`/file/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`ident=([a-zA-Z0-9]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9]+)`),
}

// ExtractIdent pulls the file identifier out of a share link.
func ExtractIdent(link string) (string, error) {
	for _, re := range identPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoIdent
}
