package client

import (
	"bytes"
	"context"
	"net/http"
)

// Upload stores body under bucket/key. An existing key is rejected.
func (c *Client) Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + objectPath(bucket, key),
		body:        bytes.NewReader(body),
		contentType: contentType,
		authed:      true,
	}, nil)
}

func (c *Client) Remove(ctx context.Context, bucket, key string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/storage/v1/object/" + objectPath(bucket, key),
		authed: true,
	}, nil)
}

// PublicURL derives the public address of an object. It makes no request.
func (c *Client) PublicURL(bucket, key string) string {
	return c.baseURL + "/storage/v1/object/public/" + objectPath(bucket, key)
}
