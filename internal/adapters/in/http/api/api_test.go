package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad(t *testing.T) {
	doc, err := Load()

	require.NoError(t, err)
	for _, path := range []string{
		"/api/delivery_price",
		"/api/order",
		"/api/order/{id}",
		"/api/order/{id}/delivered",
		"/api/orders",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestSwaggerRegistration(t *testing.T) {
	content, err := swag.ReadDoc()

	require.NoError(t, err)
	assert.JSONEq(t, string(Document()), content)
}
