// Package io reads and writes the files a run produces.
//
// # Records
//
// Resolved records are written in two forms. [WriteRecordsCSV] emits the
// tabular sink with one row per dependency edge:
//
//	group_id,artifact_id,latest,release_details_xml,dep_group_id,dep_artifact_id,dep_version,metadata_xml
//
// An artifact without dependencies produces no rows, so the CSV alone
// cannot reproduce isolated nodes. [WriteRecordsJSON] writes the complete
// record list and is what later stages prefer when it exists.
// [ReadRecordsCSV] accepts files with or without the trailing metadata_xml
// column and regroups rows into records in first-seen order.
//
// # Graphs
//
// [WriteJSON] and [ReadJSON] serialize a [depgraph.Graph] with its
// annotations:
//
//	{
//	  "nodes": [{"id": "org.a/a", "meta": {"instability": 1}}],
//	  "edges": [{"from": "org.a/a", "to": "org.b/b", "meta": {"violation": true}}]
//	}
//
// # Reports
//
// [WriteReport] writes the structured run report: run id, crawl and resolve
// counts, failures by location, graph statistics, instability values,
// violations and cycles.
package io
