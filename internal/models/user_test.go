package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserMetadataAccessors(t *testing.T) {
	u := &User{
		ID:           "u1",
		UserMetadata: map[string]interface{}{"first_name": "Ala", "last_name": 7},
		AppMetadata:  map[string]interface{}{"role": "admin"},
	}
	require.Equal(t, "Ala", u.FirstName())
	require.Equal(t, "", u.LastName())
	require.Equal(t, "admin", u.AppRole())

	empty := &User{}
	require.Equal(t, "", empty.FirstName())
	require.Equal(t, "", empty.AppRole())
}
