// Package ingest implements the entity reconciliation and idempotent
// ingestion engine behind Marquee's batch import tools.
//
// A run takes messy, hand-entered tabular rows (free-text names and handles,
// free-text movie references, free-text reviews) and merges them into the
// canonical store without creating duplicates and without touching existing
// human-curated data. The pipeline per run:
//
//	parse rows -> build participant indices -> resolve pass 1 (movies
//	already cataloged) -> defer rows pending movie creation -> create
//	movies via the metadata provider -> resolve pass 2 -> commit picks
//
// Movie creation happens between the two resolution passes because picks
// can reference movies that do not exist at parse time; the second pass
// reconciles deferred rows against the refreshed movie index. In dry-run
// mode the full pipeline executes, including provider lookups, but no store
// write is performed and the report describes what would have happened.
//
// Row-level problems are never fatal: they accumulate into the run report
// with full row context, and the batch continues. Matching heuristics are
// tuned to one community's naming conventions; ambiguous matches are
// reported for human review rather than guessed at.
package ingest
