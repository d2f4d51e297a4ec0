// Package ursjoin is the Composition Root for the ursjoin application.
//
// It connects the filter-join domain logic (pkg/core) with the input and
// output adapters (pkg/adapters/tsv, pkg/adapters/fs).
//
// ursjoin reads a set of RNAcentral sequence identifiers (URS ids) from a
// tab-separated file, keeps only the Rfam annotation rows whose identifier is
// in that set, groups them by identifier and writes the grouped result as JSON.
//
// Features:
//
//   - **Single pass**: the annotation table is streamed once; only matches are kept in memory.
//   - **Deterministic output**: identifiers appear in first-match order, rows in file order.
//   - **Fail fast**: any malformed row aborts the run and no output is written.
//   - **Transparent inputs**: gzip files, stdin ("-") and doublestar globs for annotation tables.
//   - **Several encodings**: compact JSON by default, YAML and XLSX on request.
//
// Usage:
//
//	res, err := ursjoin.Join(ctx, "pombase.tsv", "rfam_annotations.tsv.gz")
//
//	_, err = ursjoin.Run(ctx, ursjoin.Config{
//		IdentifierFile:  "pombase.tsv",
//		AnnotationsFile: "rfam_annotations.tsv.gz",
//		OutputFile:      "pombase-rfam.json",
//	}, ursjoin.WithLogger(logger))
package ursjoin
