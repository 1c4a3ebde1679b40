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

// Package bq implements the catalog and event log on BigQuery.
// This file, `queries.go`, centralizes the SQL. The `%s` verbs take the
// fully qualified table name (see Client.fqn); every value is a named query
// parameter.
package bq

const (
	// QryListCatalog lists entries oldest first. BigQuery has no insertion
	// order, so ties on created_at fall back to the sentence.
	QryListCatalog = "SELECT sentence, type, src, created_at, updated_at FROM `%s` ORDER BY created_at, sentence"

	// QryUpsertCatalog inserts or replaces the entry keyed by @sentence. The
	// MERGE keeps created_at of an existing row, and with it the row's position.
	QryUpsertCatalog = "MERGE `%s` T " +
		"USING (SELECT @sentence AS sentence, @type AS type, @src AS src) S " +
		"ON T.sentence = S.sentence " +
		"WHEN MATCHED THEN UPDATE SET type = S.type, src = S.src, updated_at = CURRENT_TIMESTAMP() " +
		"WHEN NOT MATCHED THEN INSERT (sentence, type, src, created_at, updated_at) " +
		"VALUES (S.sentence, S.type, S.src, CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP())"

	QryDeleteCatalog = "DELETE FROM `%s` WHERE sentence = @sentence"

	// QryInsertLog uses DML rather than the streaming inserter: rows in the
	// streaming buffer cannot be deleted by DML for a while.
	QryInsertLog = "INSERT INTO `%s` (id, prompt, url, created_at) VALUES (@id, @prompt, @url, @created_at)"

	QryListLog     = "SELECT id, prompt, url, created_at FROM `%s` ORDER BY created_at, id"
	QryListLogDesc = "SELECT id, prompt, url, created_at FROM `%s` ORDER BY created_at DESC, id"

	// QryDeleteAllLog needs a WHERE clause; BigQuery rejects an unqualified DELETE.
	QryDeleteAllLog      = "DELETE FROM `%s` WHERE TRUE"
	QryDeleteLogByPrompt = "DELETE FROM `%s` WHERE prompt = @prompt"
)
