package mongostore

import (
	"hunter-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = objectID("not-a-hex-id")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDecodeStats_MixedNumericTypes(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	stats := decodeStats(bson.M{
		"_id":        oid,
		"hunter_id":  "abc",
		"STR":        int32(3),
		"INT":        int64(2),
		"LUK":        float64(1),
		"created_at": primitive.NewDateTimeFromTime(now),
		"updated_at": now,
		"note":       "ignored",
	})

	assert.Equal(t, oid.Hex(), stats.ID)
	assert.Equal(t, "abc", stats.HunterID)
	assert.Equal(t, map[string]int{"STR": 3, "INT": 2, "LUK": 1}, stats.Counters)
	assert.True(t, now.Equal(stats.CreatedAt))
	assert.True(t, now.Equal(stats.UpdatedAt))
}

func TestCounterFields_SortedAndWithoutMetaKeys(t *testing.T) {
	fields := counterFields(map[string]int{"STR": 1, "AGI": 2, "hunter_id": 9})

	assert.Equal(t, bson.D{{Key: "AGI", Value: 2}, {Key: "STR", Value: 1}}, fields)
}

func TestStatsDocument(t *testing.T) {
	now := time.Now()
	doc := statsDocument(domain.DefaultStats("h1", now))

	assert.Equal(t, "hunter_id", doc[0].Key)
	assert.Equal(t, "h1", doc[0].Value)
	// three meta fields followed by the five default counters
	assert.Len(t, doc, 8)
}

func TestQuestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	quest := &domain.Quest{
		HunterID:   "h1",
		Title:      "Workout 30 mins",
		Type:       domain.QuestDaily,
		ExpReward:  30,
		StatReward: map[string]int{"STR": 1, "STA": 1},
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	doc := newQuestDocument(quest)
	doc.ID = primitive.NewObjectID()
	got := doc.toDomain()

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, quest.StatReward, got.StatReward)
	assert.Equal(t, domain.StatusPending, got.Status)

	empty := newQuestDocument(&domain.Quest{Title: "x"})
	assert.NotNil(t, empty.StatReward)
}
