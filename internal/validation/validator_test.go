// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package validation

import (
	"strings"
	"testing"
)

type coordsRequest struct {
	UserID string  `validate:"required"`
	Lat    float64 `validate:"latitude"`
	Lon    float64 `validate:"longitude"`
	Radius float64 `validate:"omitempty,gt=0,lte=25"`
}

func TestStructValid(t *testing.T) {
	req := coordsRequest{UserID: "u1", Lat: 37.7749, Lon: -122.4194, Radius: 2}
	if err := Struct(&req); err != nil {
		t.Errorf("Struct() = %v, want nil", err)
	}
}

func TestStructMissingRequired(t *testing.T) {
	req := coordsRequest{Lat: 37.7749, Lon: -122.4194}
	err := Struct(&req)
	if err == nil {
		t.Fatal("Struct() = nil, want error")
	}
	if len(err.Fields) != 1 || err.Fields[0].Field != "UserID" {
		t.Errorf("fields = %+v, want single UserID failure", err.Fields)
	}
	if !strings.Contains(err.Error(), "UserID is required") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestStructCoordinateRange(t *testing.T) {
	req := coordsRequest{UserID: "u1", Lat: 91, Lon: -200}
	err := Struct(&req)
	if err == nil {
		t.Fatal("Struct() = nil, want error")
	}
	if len(err.Fields) != 2 {
		t.Fatalf("got %d field errors, want 2: %v", len(err.Fields), err)
	}

	details := err.Details()
	if _, ok := details["fields"]; !ok {
		t.Errorf("multi-error details missing fields list: %v", details)
	}
}

func TestStructSingleErrorDetails(t *testing.T) {
	req := coordsRequest{UserID: "u1", Lat: 0, Lon: 0, Radius: 30}
	err := Struct(&req)
	if err == nil {
		t.Fatal("Struct() = nil, want error")
	}

	details := err.Details()
	if details["field"] != "Radius" || details["tag"] != "lte" {
		t.Errorf("details = %v", details)
	}
}
