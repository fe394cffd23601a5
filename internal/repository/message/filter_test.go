// File: internal/repository/message/filter_test.go
package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterCriteriaDefaults(t *testing.T) {
	chatID := primitive.NewObjectID()

	criteria := Filter{}.Criteria(chatID)

	assert.Equal(t, chatID, criteria["chatId"])
	assert.Equal(t, false, criteria["isDeleted"], "zero filter hides deleted messages")
	assert.NotContains(t, criteria, "messageType")
	assert.NotContains(t, criteria, "content")
	assert.NotContains(t, criteria, "createdAt")
}

func TestFilterCriteriaIncludeDeleted(t *testing.T) {
	criteria := Filter{IncludeDeleted: true}.Criteria(primitive.NewObjectID())
	assert.NotContains(t, criteria, "isDeleted")
}

func TestFilterCriteriaMessageType(t *testing.T) {
	criteria := Filter{MessageType: "system"}.Criteria(primitive.NewObjectID())
	assert.Equal(t, "system", criteria["messageType"])
}

func TestFilterCriteriaSearchIsCaseInsensitive(t *testing.T) {
	criteria := Filter{Search: "deploy"}.Criteria(primitive.NewObjectID())
	assert.Equal(t, bson.M{"$regex": "deploy", "$options": "i"}, criteria["content"])
}

func TestFilterCriteriaSearchEscapesMetacharacters(t *testing.T) {
	// Users search for literal text; regex syntax in the term must neither
	// break the query nor widen the match.
	cases := map[string]string{
		"3+1":      `3\+1`,
		"(wip)":    `\(wip\)`,
		"a.b*c":    `a\.b\*c`,
		"^$[d]{2}": `\^\$\[d\]\{2\}`,
	}
	for term, escaped := range cases {
		criteria := Filter{Search: term}.Criteria(primitive.NewObjectID())
		assert.Equal(t, bson.M{"$regex": escaped, "$options": "i"}, criteria["content"], "term %q", term)
	}
}

func TestFilterCriteriaTimeRange(t *testing.T) {
	after := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	criteria := Filter{After: &after, Before: &before}.Criteria(primitive.NewObjectID())
	assert.Equal(t, bson.M{"$gte": after, "$lt": before}, criteria["createdAt"])

	criteria = Filter{After: &after}.Criteria(primitive.NewObjectID())
	assert.Equal(t, bson.M{"$gte": after}, criteria["createdAt"])
}
