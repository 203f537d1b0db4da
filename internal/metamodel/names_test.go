package metamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Book", typeName("books"))
	assert.Equal(t, "UserProfile", typeName("user_profiles"))
	assert.Equal(t, "Person", typeName("people"))
}

func TestQueryFieldName(t *testing.T) {
	assert.Equal(t, "books", queryFieldName("books"))
	assert.Equal(t, "userProfiles", queryFieldName("user_profile"))
	assert.Equal(t, "people", queryFieldName("people"))
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "id", fieldName("id"))
	assert.Equal(t, "createdAt", fieldName("created_at"))
	assert.Equal(t, "userName", fieldName("user_name"))
}

func TestManyToOneFieldName(t *testing.T) {
	assert.Equal(t, "author", manyToOneFieldName("author_id"))
	assert.Equal(t, "createdByUser", manyToOneFieldName("created_by_user_id"))
	assert.Equal(t, "owner", manyToOneFieldName("owner_fk"))
	assert.Equal(t, "status", manyToOneFieldName("status"))
}

func TestOneToManyFieldName(t *testing.T) {
	assert.Equal(t, "comments", oneToManyFieldName("comments", "post_id", true))
	assert.Equal(t, "authorPosts", oneToManyFieldName("posts", "author_id", false))
}
