// Package neo4j stores the follow graph as (:User)-[:FOLLOWS]->(:User).
// Only ids live in the graph; profiles stay in the relational store.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

type FollowerRepositoryNeo4j struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewFollowerRepositoryNeo4j(driver neo4j.DriverWithContext, logger *zap.Logger) *FollowerRepositoryNeo4j {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerRepositoryNeo4j{driver: driver, logger: logger}
}

// EnsureSchema creates the uniqueness constraint on user ids.
func (r *FollowerRepositoryNeo4j) EnsureSchema(ctx context.Context) error {
	return r.write(ctx, `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`, nil)
}

// FollowUser merges both nodes and the edge, so repeating it is a no-op.
func (r *FollowerRepositoryNeo4j) FollowUser(ctx context.Context, followerID, followeeID string) error {
	const cypher = `
		MERGE (f:User {id: $followerID})
		MERGE (u:User {id: $followeeID})
		MERGE (f)-[r:FOLLOWS]->(u)
		ON CREATE SET r.since = datetime($now)
	`
	return r.write(ctx, cypher, map[string]any{
		"followerID": followerID,
		"followeeID": followeeID,
		"now":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *FollowerRepositoryNeo4j) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	const cypher = `
		MATCH (:User {id: $followerID})-[r:FOLLOWS]->(:User {id: $followeeID})
		DELETE r
	`
	return r.write(ctx, cypher, map[string]any{"followerID": followerID, "followeeID": followeeID})
}

func (r *FollowerRepositoryNeo4j) GetFollowersByUserID(ctx context.Context, userID string) ([]string, error) {
	const cypher = `
		MATCH (f:User)-[:FOLLOWS]->(:User {id: $userID})
		RETURN f.id AS id ORDER BY id
	`
	return r.ids(ctx, cypher, map[string]any{"userID": userID})
}

func (r *FollowerRepositoryNeo4j) ListFollowees(ctx context.Context, followerID string) ([]string, error) {
	const cypher = `
		MATCH (:User {id: $followerID})-[:FOLLOWS]->(u:User)
		RETURN u.id AS id ORDER BY id
	`
	return r.ids(ctx, cypher, map[string]any{"followerID": followerID})
}

func (r *FollowerRepositoryNeo4j) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	const cypher = `
		MATCH (:User {id: $followerID})-[r:FOLLOWS]->(:User {id: $followeeID})
		RETURN count(r) AS n
	`
	n, err := r.count(ctx, cypher, map[string]any{"followerID": followerID, "followeeID": followeeID})
	return n > 0, err
}

func (r *FollowerRepositoryNeo4j) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `MATCH (:User)-[r:FOLLOWS]->(:User {id: $userID}) RETURN count(r) AS n`, map[string]any{"userID": userID})
}

func (r *FollowerRepositoryNeo4j) CountFollowing(ctx context.Context, followerID string) (int64, error) {
	return r.count(ctx, `MATCH (:User {id: $userID})-[r:FOLLOWS]->(:User) RETURN count(r) AS n`, map[string]any{"userID": followerID})
}

func (r *FollowerRepositoryNeo4j) write(ctx context.Context, cypher string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		r.logger.Error("neo4j write failed", zap.Error(err))
	}
	return err
}

func (r *FollowerRepositoryNeo4j) ids(ctx context.Context, cypher string, params map[string]any) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			id, _, err := neo4j.GetRecordValue[string](rec, "id")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

func (r *FollowerRepositoryNeo4j) count(ctx context.Context, cypher string, params map[string]any) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _, err := neo4j.GetRecordValue[int64](rec, "n")
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j count: %w", err)
	}
	return out.(int64), nil
}
