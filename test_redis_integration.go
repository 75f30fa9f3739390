// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration
// +build integration

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/bobishh/quitter/pkg/reconcile"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// This is a manual integration test for the shared-link flow over Redis
// Run this with: go run -tags integration test_redis_integration.go
// Requires: Redis running on REDIS_HOST:REDIS_PORT (default localhost:6379)

func main() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.Infof("Starting Redis integration test...")

	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:     common.GetEnv("REDIS_HOST", "localhost") + ":" + common.GetEnv("REDIS_PORT", "6379"),
		Password: common.GetEnv("REDIS_PASSWORD", ""),
	})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}

	store := service.NewRedisTrackerStore(client, service.RedisTrackerStoreConfig{TTL: time.Hour})

	catalog := service.NewCatalog()
	habit := tracker.Habit{ID: uuid.New(), Slug: "beer", Name: "Beer", Icon: "🍺", UnitName: "pint"}
	if err := catalog.AddHabit(habit); err != nil {
		logrus.Fatalf("AddHabit failed: %v", err)
	}
	catalog.MarkReady()
	reconciler := reconcile.NewReconciler(catalog, reconcile.Config{Themes: catalog})

	sender := fmt.Sprintf("sender-%d", time.Now().Unix())
	receiver := fmt.Sprintf("receiver-%d", time.Now().Unix())
	logrus.Infof("Testing with devices %s and %s", sender, receiver)

	// Test 1: Create a tracker on the sending device
	logrus.Infof("\n=== Test 1: Create tracker ===")
	original := tracker.NewAbstinence(habit.ID, tracker.Abstinence{
		StartDate:   time.Now().Add(-72 * time.Hour),
		UnitsPerDay: 2,
		UserName:    "Anon",
	})
	if err := store.Create(ctx, sender, original); err != nil {
		logrus.Fatalf("Create failed: %v", err)
	}
	logrus.Infof("✓ Created tracker %s", original.ID)

	// Test 2: Produce a share link
	logrus.Infof("\n=== Test 2: Produce share link ===")
	link, err := sharing.ProduceShareURL(original, habit, "https://quitter.example")
	if err != nil {
		logrus.Fatalf("ProduceShareURL failed: %v", err)
	}
	logrus.Infof("✓ Share link: %s", link)

	// Test 3: Open the link on another device
	logrus.Infof("\n=== Test 3: Reconcile on receiving device ===")
	received := reconcileLink(ctx, reconciler, store, receiver, link)
	if received.Name() != reconcile.DecisionCreateNew {
		logrus.Fatalf("❌ decision = %s, expected %s", received.Name(), reconcile.DecisionCreateNew)
	}
	logrus.Infof("✓ Created tracker %s on receiving device", received.TrackerID())

	// Test 4: Opening the same link again is idempotent
	logrus.Infof("\n=== Test 4: Reconcile same link again ===")
	again := reconcileLink(ctx, reconciler, store, receiver, link)
	if again.Name() != reconcile.DecisionUseExisting || again.TrackerID() != received.TrackerID() {
		logrus.Fatalf("❌ decision = %s %s, expected %s %s",
			again.Name(), again.TrackerID(), reconcile.DecisionUseExisting, received.TrackerID())
	}
	logrus.Infof("✓ Reused tracker %s", again.TrackerID())

	// Test 5: A changed rate updates the existing tracker
	logrus.Infof("\n=== Test 5: Reconcile link with new rate ===")
	changed := original
	a, _ := changed.Abstinence()
	a.UnitsPerDay = 3
	changed.Type = a
	link, _ = sharing.ProduceShareURL(changed, habit, "https://quitter.example")
	updated := reconcileLink(ctx, reconciler, store, receiver, link)
	if updated.Name() != reconcile.DecisionUseExistingAfterUpdate {
		logrus.Fatalf("❌ decision = %s, expected %s", updated.Name(), reconcile.DecisionUseExistingAfterUpdate)
	}
	stored, err := store.Get(ctx, receiver, updated.TrackerID())
	if err != nil {
		logrus.Fatalf("Get failed: %v", err)
	}
	if sa, _ := stored.Abstinence(); sa.UnitsPerDay != 3 {
		logrus.Fatalf("❌ UnitsPerDay = %v, expected 3", sa.UnitsPerDay)
	}
	logrus.Infof("✓ Updated tracker %s, metric now %.2f", stored.ID, stored.Metric(time.Now()))

	// Cleanup
	logrus.Infof("\n=== Cleanup ===")
	client.Del(ctx, "quitter:trackers:"+sender, "quitter:trackers:"+receiver)
	logrus.Infof("✓ Test data cleaned up")

	logrus.Infof("\n🎉 All tests passed!")
}

func reconcileLink(
	ctx context.Context,
	reconciler *reconcile.Reconciler,
	store *service.RedisTrackerStore,
	device, link string,
) reconcile.Decision {
	known, err := store.List(ctx, device)
	if err != nil {
		logrus.Fatalf("List failed: %v", err)
	}
	d, err := reconciler.ReconcileLink(link, known)
	if err != nil {
		logrus.Fatalf("ReconcileLink failed: %v", err)
	}
	if err := reconcile.Apply(ctx, d, device, store); err != nil {
		logrus.Fatalf("Apply failed: %v", err)
	}
	return d
}
