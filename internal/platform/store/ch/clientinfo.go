package ch

import (
	"os"
	"strings"

	"bazaar/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo tags our queries in system.query_log; an empty tag falls back to the build version
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	bi := version.Info("bazaar")
	if tag = strings.TrimSpace(tag); tag == "" {
		tag = bi.Version
	}
	commit := bi.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	host, _ := os.Hostname()

	ci := clickhouse.ClientInfo{}
	for _, p := range [][2]string{
		{bi.Service, tag},
		{"role", strings.TrimSpace(role)},
		{"go", bi.GoVersion},
		{"commit", commit},
		{"host", host},
	} {
		ci.Products = append(ci.Products, struct{ Name, Version string }{p[0], p[1]})
	}
	return ci
}
