package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/libscout/libscout/pkg/errors"
)

// FetchFile retrieves the content of a file from a repository.
// The API returns content base64-encoded or plain depending on the
// encoding field; both forms are decoded into the returned string.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (*FileContent, error) {
	if err := errors.ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var file FileContent
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), &file); err != nil {
		return nil, err
	}

	if file.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "decode file content")
		}
		file.Content = string(decoded)
		file.Encoding = ""
	}
	return &file, nil
}
