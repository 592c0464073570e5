/*
	Copyright 2025 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package color

import (
	"testing"

	testutil "github.com/ilhamster/drillbar/test_util"
	"github.com/ilhamster/drillbar/util"
)

func TestPaletteColor(t *testing.T) {
	rgb := NewPalette("rgb", "red", "green", "blue")
	var nilPalette *Palette
	for _, test := range []struct {
		description string
		palette     *Palette
		idx         int
		want        string
	}{{
		description: "first color",
		palette:     rgb,
		idx:         0,
		want:        "red",
	}, {
		description: "cycles past the end",
		palette:     rgb,
		idx:         4,
		want:        "green",
	}, {
		description: "nil palette uses default",
		palette:     nilPalette,
		idx:         1,
		want:        "#12239E",
	}, {
		description: "empty palette uses default",
		palette:     NewPalette("empty"),
		idx:         0,
		want:        "#118DFF",
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := test.palette.Color(test.idx); got != test.want {
				t.Errorf("Color(%d) = %q, want %q", test.idx, got, test.want)
			}
		})
	}
}

func TestColorDeclarations(t *testing.T) {
	for _, test := range []struct {
		description string
		updates     []util.PropertyUpdate
		wantUpdates []util.PropertyUpdate
	}{{
		description: "palette definition",
		updates: []util.PropertyUpdate{
			NewPalette("fire", "yellow", "red").Define(),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(paletteNamePrefix+"fire", "yellow", "red"),
		},
	}, {
		description: "palette redefinition overwrites previous",
		updates: []util.PropertyUpdate{
			NewPalette("royal", "blue", "purple").Define(),
			NewPalette("royal", "purple", "blue").Define(),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringsProperty(paletteNamePrefix+"royal", "purple", "blue"),
		},
	}, {
		description: "primary, secondary, and stroke",
		updates: []util.PropertyUpdate{
			Primary("blue"),
			Secondary("purple"),
			Stroke("white"),
		},
		wantUpdates: []util.PropertyUpdate{
			util.StringProperty(primaryColorKey, "blue"),
			util.StringProperty(secondaryColorKey, "purple"),
			util.StringProperty(strokeColorKey, "white"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(test.updates...).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}
