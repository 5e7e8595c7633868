package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFileStore(t *testing.T) Store {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	s, err := NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every store that works without external services.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("file", func(t *testing.T) { fn(t, newFileStore(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
}

func TestInsertAssignsIdentityAndTimestamps(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		doc, err := s.InsertOne(ctx, "products", Document{"name": "Naruto Vol. 1", "price": 450})
		require.NoError(t, err)

		assert.Regexp(t, `^\d{13}[a-z0-9]{9}$`, doc.ID())
		assert.NotEmpty(t, doc[FieldCreatedAt])
		assert.Equal(t, doc[FieldCreatedAt], doc[FieldUpdatedAt])

		found, err := s.FindByID(ctx, "products", doc.ID())
		require.NoError(t, err)
		assert.Equal(t, doc.ID(), found.ID())
		assert.Equal(t, "Naruto Vol. 1", found["name"])
		assert.EqualValues(t, 450, found["price"])
	})
}

func TestIDsAreUniqueWithinCollection(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		docs := make([]Document, 200)
		for i := range docs {
			docs[i] = Document{"n": i}
		}
		inserted, err := s.InsertMany(ctx, "orders", docs)
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, d := range inserted {
			assert.False(t, seen[d.ID()], "duplicate id %s", d.ID())
			seen[d.ID()] = true
		}

		all, err := s.Find(ctx, "orders", nil)
		require.NoError(t, err)
		require.Len(t, all, 200)
		for i, d := range all {
			assert.Equal(t, inserted[i].ID(), d.ID(), "ids stable and insertion-ordered")
		}
	})
}

func TestInsertReplacesDuplicateID(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	first, err := s.InsertOne(ctx, "users", Document{FieldID: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", first.ID())

	second, err := s.InsertOne(ctx, "users", Document{FieldID: "fixed"})
	require.NoError(t, err)
	assert.NotEqual(t, "fixed", second.ID())
}

func TestUpdateIsShallowMerge(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		doc, err := s.InsertOne(ctx, "users", Document{
			"username": "goku",
			"email":    "goku@capsule.corp",
			"address":  map[string]interface{}{"city": "Dhaka", "street": "Road 1"},
		})
		require.NoError(t, err)

		updated, err := s.UpdateByID(ctx, "users", doc.ID(), Document{
			"email":     "kakarot@capsule.corp",
			"address":   map[string]interface{}{"city": "Chattogram"},
			FieldID:     "hijack",
			"createdAt": "1970-01-01T00:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, doc.ID(), updated.ID())
		assert.Equal(t, doc[FieldCreatedAt], updated[FieldCreatedAt])

		found, err := s.FindByID(ctx, "users", doc.ID())
		require.NoError(t, err)
		assert.Equal(t, "goku", found["username"])
		assert.Equal(t, "kakarot@capsule.corp", found["email"])
		assert.Equal(t, map[string]interface{}{"city": "Chattogram"}, found["address"])
	})
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		_, err := s.UpdateByID(context.Background(), "users", "nope", Document{"a": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a, err := s.InsertOne(ctx, "notifications", Document{"title": "a"})
		require.NoError(t, err)
		_, err = s.InsertOne(ctx, "notifications", Document{"title": "b"})
		require.NoError(t, err)

		before, err := s.Count(ctx, "notifications", nil)
		require.NoError(t, err)

		removed, err := s.DeleteByID(ctx, "notifications", a.ID())
		require.NoError(t, err)
		assert.Equal(t, "a", removed["title"])

		_, err = s.FindByID(ctx, "notifications", a.ID())
		assert.ErrorIs(t, err, ErrNotFound)

		after, err := s.Count(ctx, "notifications", nil)
		require.NoError(t, err)
		assert.Equal(t, before-1, after)

		_, err = s.DeleteByID(ctx, "notifications", a.ID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindWithPredicates(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.InsertMany(ctx, "products", []Document{
			{"name": "One Piece Vol. 1", "category": "Manga", "price": 500, "tags": []interface{}{"shonen", "pirates"}},
			{"name": "Luffy Figure", "category": "Figures", "price": 3200},
			{"name": "Berserk Deluxe", "category": "Manga", "price": 4200, "tags": []interface{}{"seinen"}},
		})
		require.NoError(t, err)

		manga, err := s.Find(ctx, "products", Where(Eq("category", "Manga")))
		require.NoError(t, err)
		assert.Len(t, manga, 2)

		search, err := s.Find(ctx, "products", Where(Regex("name", "piece", true)))
		require.NoError(t, err)
		require.Len(t, search, 1)
		assert.Equal(t, "One Piece Vol. 1", search[0]["name"])

		tagged, err := s.Find(ctx, "products", Where(Regex("tags", "^sei", false)))
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, "Berserk Deluxe", tagged[0]["name"])

		ranged, err := s.Find(ctx, "products", Where(Gte("price", 1000), Lt("price", 4000)))
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, "Luffy Figure", ranged[0]["name"])

		untagged, err := s.Find(ctx, "products", Where(Eq("tags", nil)))
		require.NoError(t, err)
		assert.Len(t, untagged, 1)

		one, err := s.FindOne(ctx, "products", Where(In("category", "Figures", "Gaming")))
		require.NoError(t, err)
		assert.Equal(t, "Luffy Figure", one["name"])

		_, err = s.FindOne(ctx, "products", Where(Eq("category", "Clothing")))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAggregateMatchAndGroup(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.InsertMany(ctx, "orders", []Document{
			{"orderStatus": "pending", "finalTotal": 100},
			{"orderStatus": "delivered", "finalTotal": 300},
			{"orderStatus": "pending", "finalTotal": 200},
			{"orderStatus": "cancelled", "finalTotal": 50},
		})
		require.NoError(t, err)

		groups, err := s.Aggregate(ctx, "orders",
			Match{Filter: Where(Ne("orderStatus", "cancelled"))},
			Group{By: "orderStatus", Fields: map[string]Accumulator{
				"count":   Count(),
				"revenue": Sum("finalTotal"),
				"average": Avg("finalTotal"),
			}},
		)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, "pending", groups[0][FieldID])
		assert.EqualValues(t, 2, groups[0]["count"])
		assert.EqualValues(t, 300, groups[0]["revenue"])
		assert.EqualValues(t, 150, groups[0]["average"])

		assert.Equal(t, "delivered", groups[1][FieldID])
		assert.EqualValues(t, 1, groups[1]["count"])

		total, err := s.Aggregate(ctx, "orders", Group{Fields: map[string]Accumulator{"n": Count()}})
		require.NoError(t, err)
		require.Len(t, total, 1)
		assert.Nil(t, total[0][FieldID])
		assert.EqualValues(t, 4, total[0]["n"])
	})
}

func TestConcurrentInsertsAreNotLost(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.InsertOne(ctx, "orders", Document{"n": i})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n, err := s.Count(ctx, "orders", nil)
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestFileStoreMissingCollectionIsEmpty(t *testing.T) {
	s := newFileStore(t)
	docs, err := s.Find(context.Background(), "admins", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileStoreCorruptCollectionSurfacesError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.Find(context.Background(), "products", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
