package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderInformation(t *testing.T) {
	o, err := DecodeOrderInformation([]byte(`{
		"orderId": "12345",
		"image": "/test-image.jpg",
		"size": ["S", "M", "L"],
		"color": ["Red", "Blue"],
		"value": "Test / Red",
		"title": "Test Order"
	}`))
	require.NoError(t, err)
	assert.Equal(t, &OrderInformation{
		OrderID: "12345",
		Image:   "/test-image.jpg",
		Size:    []string{"S", "M", "L"},
		Color:   []string{"Red", "Blue"},
		Value:   "Test / Red",
		Title:   "Test Order",
	}, o)
}

func TestDecodeOrderInformationFalsy(t *testing.T) {
	for _, body := range []string{"", "  ", "null", "false", "0", `""`} {
		_, err := DecodeOrderInformation([]byte(body))
		assert.ErrorIs(t, err, ErrEmptyBody, "body %q", body)
	}
}

func TestDecodeOrderInformationNotObject(t *testing.T) {
	for _, body := range []string{"[1,2]", `"abc"`, "true", "{bad"} {
		o, err := DecodeOrderInformation([]byte(body))
		assert.Error(t, err, "body %q", body)
		assert.NotErrorIs(t, err, ErrEmptyBody)
		assert.Nil(t, o)
	}
}

func TestDecodeOrderInformationEmptyObject(t *testing.T) {
	o, err := DecodeOrderInformation([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, &OrderInformation{}, o)
}
