// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "time"

// GetExampleCatalog returns a small catalog used by tests and by the
// `seed` configuration of the memory store. "cat" precedes "category" on
// purpose: both are substrings of "I like category theory".
func GetExampleCatalog() []CatalogEntry {
	return []CatalogEntry{
		{Sentence: "AI videos", Type: MediaKindVideo, Src: "/videos/a.mp4"},
		{Sentence: "cat", Type: MediaKindImage, Src: "/images/cat.png"},
		{Sentence: "category", Type: MediaKindVideo, Src: "/videos/category.mp4"},
		{Sentence: "Good morning", Type: MediaKindVideo, Src: "/videos/1719000000000_morning.mp4"},
	}
}

// GetExampleLog returns log events spread over one hour, oldest first.
func GetExampleLog(start time.Time) []LogEvent {
	return []LogEvent{
		{Prompt: "Good morning", URL: "/videos/1719000000000_morning.mp4", CreatedAt: start},
		{Prompt: "I love AI videos", URL: "/videos/a.mp4", CreatedAt: start.Add(10 * time.Minute)},
		{Prompt: " Good morning ", URL: "/videos/1719000000000_morning.mp4", CreatedAt: start.Add(20 * time.Minute)},
		{Prompt: "good morning", URL: "/videos/1719000000000_morning.mp4", CreatedAt: start.Add(30 * time.Minute)},
		{Prompt: "cat", URL: "/images/cat.png", CreatedAt: start.Add(40 * time.Minute)},
		{Prompt: "I love AI videos", URL: "/videos/a.mp4", CreatedAt: start.Add(50 * time.Minute)},
	}
}
