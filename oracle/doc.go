// Copyright 2025 Poiesic Systems
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


// Package oracle defines the scoring boundary between the ensemble search
// engine and whatever evaluates an ensemble.
//
// The engine consumes exactly one interface, Scorer, which maps an expression
// to a real number. Everything about how a score is produced (running a
// benchmark, asking a model, looking up a table) lives behind it.
//
// # Implementation Packages
//
//   - oracle/openai: an LLM judge over an OpenAI-compatible chat API
//   - oracle/mock: deterministic and random scorers for tests and exploration
//
// Public constructors in oracle/openai return the Scorer interface. Mock
// constructors return concrete types so tests can inspect call counts.
//
// # Usage Example
//
//	cfg := oracle.NewConfig(
//	    oracle.WithHost("http://localhost:11434/v1"),
//	    oracle.WithModel("qwen2.5:7b"),
//	    oracle.WithCriteria("named entity recognition F1 on news text"),
//	)
//	judge, err := openai.NewJudge(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	score, err := judge.Score(ctx, core.MustParse("spacy&flair"))
package oracle
