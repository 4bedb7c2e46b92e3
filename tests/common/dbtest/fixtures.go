//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"boxcric-api/internal/domain/ground"
	"boxcric-api/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestUserPassword is the plaintext behind every fixture user's hash.
const TestUserPassword = "password123"

var (
	hashOnce     sync.Once
	passwordHash string
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPassword(TestUserPassword)
		require.NoError(t, err)
		passwordHash = h
	})
	return passwordHash
}

// testPhone derives a distinct number per address so the phone unique
// constraint never trips across fixture users.
func testPhone(email string) string {
	h := fnv.New32a()
	h.Write([]byte(email))
	return fmt.Sprintf("+91%010d", h.Sum32())
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, name, email, phone, password_hash, role) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (email) DO NOTHING",
		userID, "Test "+role, email, testPhone(email), testPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestLocation(t *testing.T, db DBLike, city, state string) uuid.UUID {
	t.Helper()

	locationID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO locations (id, city, state) VALUES ($1, $2, $3) ON CONFLICT (city, state) DO NOTHING",
		locationID, city, state)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM locations WHERE city = $1 AND state = $2", city, state).Scan(&locationID)
	}

	return locationID
}

func CreateTestGround(t *testing.T, db DBLike, ownerID, locationID uuid.UUID, name string, pricePerHour int64) uuid.UUID {
	t.Helper()

	groundID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO grounds (id, owner_id, location_id, name, description, address, price_per_hour, capacity, pitch_type, time_slots)
		 VALUES ($1, $2, $3, $4, 'Fixture ground', '12 MG Road', $5, 12, 'turf', $6)`,
		groundID, ownerID, locationID, name, pricePerHour, ground.DefaultTimeSlots)
	require.NoError(t, err)

	return groundID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO locations (id, city, state) VALUES
		    (gen_random_uuid(), 'Mumbai', 'Maharashtra'),
		    (gen_random_uuid(), 'Bengaluru', 'Karnataka')
		ON CONFLICT (city, state) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
