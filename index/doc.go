// Copyright 2025 The AI-upskilling Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package index defines the similarity-search collaborator consumed by the
// RAG pipeline.
//
// The pipeline only ever queries an already-populated index: it hands over
// a query embedding and a result limit and gets back ranked documents. How
// documents got into the index (chunking, ingestion) is someone else's job;
// Upsert exists so that external population tooling has a door to knock on.
//
// The index/badger sub-package provides an embedded BadgerDB-backed
// implementation suitable for local deployments and tests.
package index
