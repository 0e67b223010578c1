package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peakcomfort/backend/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestCustomerRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := models.Customer{
		ID:     uuid.NewString(),
		Name:   "Test Customer",
		Phone:  "555-0100",
		Email:  uuid.NewString() + "@example.com",
		Street: "123 Main St",
		City:   "Denver",
		State:  "CO",
		Zip:    "80202",
		Type:   "residential",
		Equipment: models.Equipment{
			Brand:   "Carrier",
			Tonnage: 2.5,
		},
		Photos:    []string{"before.jpg"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.InsertCustomer(ctx, c); err != nil {
		t.Fatalf("insert: %v", err)
	}
	defer store.DeleteCustomer(ctx, c.ID)

	got, err := store.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != c.Name || got.Equipment.Brand != "Carrier" || got.Equipment.Tonnage != 2.5 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Lat != nil || got.Lng != nil {
		t.Fatalf("expected nil coordinates, got %v %v", got.Lat, got.Lng)
	}

	found, err := store.FindCustomerByContact(ctx, c.Phone, "")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if found.ID != c.ID {
		t.Fatalf("phone lookup found wrong customer: %s", found.ID)
	}

	if err := store.UpdateCustomerCoordinates(ctx, c.ID, 39.7392, -104.9903); err != nil {
		t.Fatalf("update coordinates: %v", err)
	}
	got, err = store.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Lat == nil || *got.Lat != 39.7392 {
		t.Fatalf("coordinates not saved: %v", got.Lat)
	}
}

func TestWorkOrderRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := models.Customer{ID: uuid.NewString(), Name: "WO Customer", Type: "residential", CreatedAt: now, UpdatedAt: now}
	if err := store.InsertCustomer(ctx, c); err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	day := time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)
	w := models.WorkOrder{
		ID:              uuid.NewString(),
		WorkOrderNumber: "WO-20300615-0001",
		CustomerID:      c.ID,
		Title:           "Replace capacitor",
		ServiceType:     models.ServiceRepair,
		Priority:        models.PriorityNormal,
		Status:          models.StatusPending,
		ServiceDate:     day,
		Description:     "Unit hums but fan does not spin",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := store.InsertWorkOrder(ctx, w); err != nil {
		t.Fatalf("insert work order: %v", err)
	}
	defer func() {
		store.DeleteWorkOrder(ctx, w.ID)
		store.DeleteCustomer(ctx, c.ID)
	}()

	got, err := store.GetWorkOrder(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != w.Title || got.Status != models.StatusPending {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// The daily sequence counts by creation date, not service date.
	count, err := store.CountWorkOrdersOnDate(ctx, now)
	if err != nil {
		t.Fatalf("count on date: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 work order created on %v, got %d", now, count)
	}

	// Customer delete must fail while the work order references it.
	if _, err := store.DeleteCustomer(ctx, c.ID); err == nil {
		t.Fatal("customer delete should hit the foreign key")
	}
}
