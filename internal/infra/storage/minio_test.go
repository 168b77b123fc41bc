package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL_SchemeFollowsEndpoint(t *testing.T) {
	plain := &url.URL{Scheme: "http", Host: "minio.local:9000"}
	tls := &url.URL{Scheme: "https", Host: "minio.example.com"}

	assert.Equal(t, "http://minio.local:9000/charts/run1/stock_image.png",
		objectURL(plain, "charts", "run1/stock_image.png"))
	assert.Equal(t, "https://minio.example.com/charts/run1/stock_image.png",
		objectURL(tls, "charts", "run1/stock_image.png"))
}
