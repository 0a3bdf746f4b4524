package service

import (
	"context"
	"testing"
	"time"

	"bazaar/internal/core/ranking"
	"bazaar/internal/services/api/feed/domain"
	"bazaar/internal/services/api/feed/repo"
)

func TestAggregate_MergesDuplicateRows(t *testing.T) {
	s, _ := newFeed(&memRepo{}, WithMedia(NewMedia("https://cdn.test", nil)))
	a := fixture{id: 1, title: "first", at: t0, images: []imageJSON{{ID: 1, Key: "a", CreatedAt: t0}}}.raw()
	a.Plans = []byte(`[{"id":2,"name":"pro","price":20,"currency":"EUR","created_at":"2026-04-02T00:00:00Z"}]`)
	b := fixture{id: 1, title: "second", at: t0, images: []imageJSON{{ID: 1, Key: "a", CreatedAt: t0}, {ID: 2, Key: "b", CreatedAt: t0.Add(time.Hour)}}}.raw()
	b.Plans = []byte(`[{"id":1,"name":"basic","price":10,"currency":"EUR","created_at":"2026-04-01T00:00:00Z"},{"id":2,"name":"pro","price":20,"currency":"EUR","created_at":"2026-04-02T00:00:00Z"}]`)
	other := fixture{id: 2, title: "other", at: t0}.raw()

	q := query{kind: domain.KindServices, mode: ranking.ModeRecency}
	out, err := s.aggregate(context.Background(), &memRepo{}, q, []repo.RawRow{a, other, b})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(out) != 2 || out[0].Base().Seq != 1 || out[1].Base().Seq != 2 {
		t.Fatalf("out = %+v", out)
	}
	svc := out[0].(*domain.Service)
	if svc.Title != "first" {
		t.Fatalf("scalars must come from the first row, got %q", svc.Title)
	}
	if len(svc.Images) != 2 || svc.Images[0].URL != "https://cdn.test/b" {
		t.Fatalf("images = %+v", svc.Images)
	}
	if len(svc.Plans) != 2 || svc.Plans[0].Name != "basic" || svc.Plans[1].Name != "pro" {
		t.Fatalf("plans = %+v", svc.Plans)
	}
	if svc.DistanceKm != nil || svc.Relevance != nil {
		t.Fatalf("recency listings carry no signals")
	}
}

func TestAggregate_TypedPerKind(t *testing.T) {
	s, _ := newFeed(&memRepo{})
	row := fixture{id: 1, at: t0}.raw()

	row.Attrs = []byte(`{"title":"cook","description":"d","company":"c","salary_min":10.5,"salary_max":null,"salary_unit":"hour"}`)
	out, err := s.aggregate(context.Background(), &memRepo{}, query{kind: domain.KindLocalJobs, mode: ranking.ModeRecency}, []repo.RawRow{row})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	job := out[0].(*domain.LocalJob)
	if job.Title != "cook" || job.SalaryMin == nil || *job.SalaryMin != 10.5 || job.SalaryMax != nil {
		t.Fatalf("job = %+v", job)
	}

	row.Attrs = []byte(`{"name":"bike","description":"d","price":99.5,"currency":"EUR","condition":"used"}`)
	out, err = s.aggregate(context.Background(), &memRepo{}, query{kind: domain.KindUsedProducts, mode: ranking.ModeRecency}, []repo.RawRow{row})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if p := out[0].(*domain.UsedProduct); p.Name != "bike" || p.Price != 99.5 {
		t.Fatalf("product = %+v", p)
	}

	row.Attrs = []byte(`not json`)
	out, err = s.aggregate(context.Background(), &memRepo{}, query{kind: domain.KindUsedProducts, mode: ranking.ModeRecency}, []repo.RawRow{row})
	if err != nil || len(out) != 0 {
		t.Fatalf("bad attrs: out=%v err=%v", out, err)
	}
}
