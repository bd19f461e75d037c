// Package issues reads and writes issue snapshot files.
//
// A snapshot is the JSON document a crawl produces: the crawl time, the
// number of issues and the issues themselves, keyed with the Korean field
// names the crawler uses (이슈번호, 제목, 내용). Snapshot files are named
// "<2006.01.02_15.04.05>_BigKinds_current_issues.json".
package issues
