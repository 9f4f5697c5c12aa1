// Package export uploads order snapshots to an S3 bucket.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

// PutObjectAPI is the part of *s3.Client the exporter needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter writes JSON snapshots into one bucket.
type Exporter struct {
	client PutObjectAPI
	bucket string
}

func NewExporter(client PutObjectAPI, bucket string) (*Exporter, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	return &Exporter{client: client, bucket: bucket}, nil
}

// NewClient loads the default AWS credential chain. An empty region defers to the environment.
func NewClient(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt  time.Time      `json:"generatedAt"`
	StatusFilter string         `json:"statusFilter"`
	SearchTerm   string         `json:"searchTerm,omitempty"`
	Orders       []orderJSON    `json:"orders"`
	ByStatus     map[string]int `json:"byStatus"`
	TotalOrders  int            `json:"totalOrders"`
	TotalRevenue string         `json:"totalRevenue"`
}

type orderJSON struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Total     string     `json:"total"`
	Items     []itemJSON `json:"items"`
	FullName  string     `json:"fullName,omitempty"`
	Email     string     `json:"email,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type itemJSON struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// NewSnapshot captures the filtered orders with statistics over the full list.
func NewSnapshot(all []*domain.Order, filter domain.StatusFilter, term string, now time.Time) Snapshot {
	stats := domain.Aggregate(all)
	filtered := domain.Filter(all, filter, term)
	snap := Snapshot{
		GeneratedAt:  now.UTC(),
		StatusFilter: string(filter),
		SearchTerm:   term,
		Orders:       make([]orderJSON, 0, len(filtered)),
		ByStatus:     make(map[string]int, len(stats.ByStatus)),
		TotalOrders:  stats.TotalOrders,
		TotalRevenue: stats.RevenueString(),
	}
	for status, count := range stats.ByStatus {
		snap.ByStatus[string(status)] = count
	}
	for _, order := range filtered {
		out := orderJSON{
			ID:       order.ID,
			Status:   string(order.Status),
			Total:    order.Total.StringFixed(2),
			Items:    make([]itemJSON, 0, len(order.Items)),
			FullName: order.FullName(),
			Email:    order.Email(),
		}
		for _, item := range order.Items {
			out.Items = append(out.Items, itemJSON{Name: item.Name, Quantity: item.Quantity, Price: item.Price.StringFixed(2)})
		}
		if !order.CreatedAt.IsZero() {
			created := order.CreatedAt.UTC()
			out.CreatedAt = &created
		}
		snap.Orders = append(snap.Orders, out)
	}
	return snap
}

// Export uploads the snapshot under key and returns the s3:// location.
func (e *Exporter) Export(ctx context.Context, key string, snap Snapshot) (string, error) {
	if key == "" {
		return "", errors.New("s3 object key is required")
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload snapshot to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", e.bucket, key), nil
}
