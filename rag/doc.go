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


// Package rag implements the retrieval-augmented-generation query pipeline.
//
// A Pipeline sequences two stages for every question:
//
//  1. Retriever: embed the query, search the similarity index, return
//     ranked documents.
//  2. Answerer: concatenate the retrieved content into a context, fill the
//     prompt template and invoke the generation service.
//
// # Failure degradation
//
// Stage failures never escape their stage. A failed embedding or search
// call degrades retrieval to an empty document set; a failed generation
// call degrades the answer to an apology string embedding the error text;
// an empty context short-circuits generation entirely without calling the
// service. Anything not absorbed by a stage is caught at the Pipeline
// boundary, which still returns a structurally valid Response. Ask never
// panics and never returns an error to its caller.
//
// # Observability
//
// Every request carries a correlation id (caller-supplied or generated)
// that stamps each log record, custom event and dependency record emitted
// along the way. An optional PipelineMonitor receives callbacks at each
// stage for interactive frontends.
package rag
