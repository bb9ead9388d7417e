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


// Package ai defines the AI collaborator abstractions for the RAG pipeline.
//
// The pipeline depends on two external AI services: an embedding service
// that turns text into vectors for similarity search, and a generation
// service that synthesizes answers from a filled prompt. Both are modeled
// as interfaces so the pipeline never couples to a concrete backend.
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces an answer for a fully assembled prompt
//   - Provider: aggregates both for convenient initialization
//
// # Implementation packages
//
//   - ai/openai: production implementation against OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with behavior injection
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert call counts.
package ai
