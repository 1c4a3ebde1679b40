// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlq"
)

// Client wraps a BigQuery client with the dataset and table names of both
// stores.
type Client struct {
	BigqueryClient *bigquery.Client // Client for interacting with Google BigQuery.
	DatasetName    string           // The dataset holding both tables.
	CatalogTable   string           // The catalog table name.
	LogTable       string           // The event log table name.
}

// catalogRow is the BigQuery shape of a catalog entry.
type catalogRow struct {
	Sentence  string    `bigquery:"sentence"`
	Type      string    `bigquery:"type"`
	Src       string    `bigquery:"src"`
	CreatedAt time.Time `bigquery:"created_at"`
	UpdatedAt time.Time `bigquery:"updated_at"`
}

// logRow is the BigQuery shape of a log event.
type logRow struct {
	ID        string    `bigquery:"id"`
	Prompt    string    `bigquery:"prompt"`
	URL       string    `bigquery:"url"`
	CreatedAt time.Time `bigquery:"created_at"`
}

// fqn returns the table name usable in standard SQL, e.g.
// `project.dataset.table`.
func (c *Client) fqn(table string) string {
	name := c.BigqueryClient.Dataset(c.DatasetName).Table(table).FullyQualifiedName()
	return strings.Replace(name, ":", ".", 1)
}

// Query formats queryText with the table's FQN and binds params.
func (c *Client) query(queryText, table string, params ...bigquery.QueryParameter) *bigquery.Query {
	q := c.BigqueryClient.Query(fmt.Sprintf(queryText, c.fqn(table)))
	q.Parameters = params
	return q
}

// exec runs a DML statement and returns the number of affected rows.
func (c *Client) exec(ctx context.Context, q *bigquery.Query) (int64, error) {
	job, err := q.Run(ctx)
	if err != nil {
		return 0, err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, err
	}
	if err := status.Err(); err != nil {
		return 0, err
	}
	if stats, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return stats.NumDMLAffectedRows, nil
	}
	return 0, nil
}

// readAll runs q and scans every row into a new T.
func readAll[T any](ctx context.Context, q *bigquery.Query) ([]T, error) {
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := []T{}
	for {
		var row T
		err := itr.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// EnsureTables creates the dataset and both tables when they are missing.
func (c *Client) EnsureTables(ctx context.Context, location string) error {
	ds := c.BigqueryClient.Dataset(c.DatasetName)
	if err := ds.Create(ctx, &bigquery.DatasetMetadata{Location: location}); err != nil && !isConflict(err) {
		return sqlq.Unavailable("create dataset "+c.DatasetName, err)
	}
	tables := map[string]any{c.CatalogTable: catalogRow{}, c.LogTable: logRow{}}
	for name, row := range tables {
		schema, err := bigquery.InferSchema(row)
		if err != nil {
			return fmt.Errorf("infer schema for %s: %w", name, err)
		}
		if err := ds.Table(name).Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil && !isConflict(err) {
			return sqlq.Unavailable("create table "+name, err)
		}
	}
	return nil
}

func isConflict(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
