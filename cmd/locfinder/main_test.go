package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Overland-East-Bay/location-finder-api/internal/adapters/apiclient"
	"github.com/Overland-East-Bay/location-finder-api/internal/domain"
)

func fakeResults(n int) apiclient.SearchResult {
	res := apiclient.SearchResult{Center: domain.Coordinate{Lat: 39.0169, Lng: -94.2816}, Unit: domain.UnitMiles}
	for i := 0; i < n; i++ {
		pt, label := "member", "Member"
		if i%2 == 0 {
			pt, label = "staff", "Staff"
		}
		res.Users = append(res.Users, domain.SearchResultEntry{
			MemberID:         domain.MemberID(fmt.Sprintf("m%02d", i)),
			DisplayName:      fmt.Sprintf("Person %02d", i),
			LocationParts:    []string{"Town", "MO"},
			Distance:         float64(i) + 0.25,
			ProfileType:      pt,
			ProfileTypeLabel: label,
		})
	}
	return res
}

func testDeps(res apiclient.SearchResult, err error, out *bytes.Buffer, seen **options) Dependencies {
	return Dependencies{
		Search: func(ctx context.Context, o *options) (apiclient.SearchResult, error) {
			if seen != nil {
				*seen = o
			}
			return res, err
		},
		Getenv: func(string) string { return "" },
		Stdout: out,
	}
}

func TestRun_RendersRequestedPage(t *testing.T) {
	var out bytes.Buffer
	var seen *options
	err := run(context.Background(), []string{"-r", "50", "-u", "mi", "-p", "3", "Blue", "Springs,", "MO"}, testDeps(fakeResults(23), nil, &out, &seen))
	if err != nil {
		t.Fatalf("run err=%v", err)
	}
	if seen.Location != "Blue Springs, MO" || seen.Radius != 50 || seen.Unit != "mi" {
		t.Fatalf("options=%+v", seen)
	}
	got := out.String()
	for _, want := range []string{"21.", "Person 20", "Person 22", "Page 3 of 3 (23 members)", "« 1 2 [3]", "Profile types: Staff (staff), Member (member)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Person 19") {
		t.Fatalf("page 3 should not include Person 19:\n%s", got)
	}
}

func TestRun_FiltersBeforePaging(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-t", "staff", "-n", "person 1", "Kansas City"}, testDeps(fakeResults(23), nil, &out, nil))
	if err != nil {
		t.Fatalf("run err=%v", err)
	}
	got := out.String()
	// Staff entries are even indices; "person 1" matches 10-19.
	for _, want := range []string{"Person 10", "Person 18", "Page 1 of 1 (5 members)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Person 11") {
		t.Fatalf("member entries leaked through the staff filter:\n%s", got)
	}
}

func TestRun_EmptyResults(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"Nowhere"}, testDeps(apiclient.SearchResult{}, nil, &out, nil)); err != nil {
		t.Fatalf("run err=%v", err)
	}
	if !strings.Contains(out.String(), "No members found.") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestRun_PageOutOfRange(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-p", "4", "Kansas City"}, testDeps(fakeResults(23), nil, &out, nil))
	if err == nil || !strings.Contains(err.Error(), "page 4 is out of range (3 pages)") {
		t.Fatalf("err=%v", err)
	}
}

func TestRun_APIErrorMessage(t *testing.T) {
	var out bytes.Buffer
	apiErr := &apiclient.Error{StatusCode: 422, Code: "LOCATION_NOT_FOUND", Message: "Could not find the location"}
	err := run(context.Background(), []string{"Atlantis"}, testDeps(apiclient.SearchResult{}, apiErr, &out, nil))
	if err == nil || err.Error() != "Could not find the location" {
		t.Fatalf("err=%v", err)
	}

	plain := errors.New("connection refused")
	err = run(context.Background(), []string{"Atlantis"}, testDeps(apiclient.SearchResult{}, plain, &out, nil))
	if !errors.Is(err, plain) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseFlags(t *testing.T) {
	env := func(k string) string {
		if k == "LOCFINDER_SERVER" {
			return "http://api.test"
		}
		return ""
	}

	opts, err := parseFlags([]string{"--subject", "sub-1", "--page-size", "5", "Lee's", "Summit"}, env)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if opts.ServerURL != "http://api.test" || opts.Subject != "sub-1" || opts.PageSize != 5 || opts.Location != "Lee's Summit" || opts.Radius != 50 {
		t.Fatalf("opts=%+v", opts)
	}

	opts, err = parseFlags([]string{"--help"}, env)
	if err != nil || !opts.ShowHelp {
		t.Fatalf("help: opts=%+v err=%v", opts, err)
	}

	bad := [][]string{
		{},
		{"-r"},
		{"-r", "0", "x"},
		{"-u", "yd", "x"},
		{"-p", "0", "x"},
		{"--page-size", "-1", "x"},
		{"--bogus", "x"},
	}
	for _, args := range bad {
		if _, err := parseFlags(args, env); err == nil {
			t.Fatalf("parseFlags(%q) expected error", args)
		}
	}
}
