// seehuhn.de/go/fontbatch - batch generation of variable fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package interp

// Cache stores models by key, so that a model is built only once for
// every glyph or kerning pair.  A Cache is not safe for concurrent use.
type Cache[K comparable] struct {
	models map[K]*Model
	hits   int
}

// NewCache allocates an empty cache.
func NewCache[K comparable]() *Cache[K] {
	return &Cache[K]{models: make(map[K]*Model)}
}

// Get returns the model stored under key.  If there is no such model,
// build is called to construct it.  Errors from build are returned to the
// caller and are not cached.
func (c *Cache[K]) Get(key K, build func() (*Model, error)) (*Model, error) {
	if m, ok := c.models[key]; ok {
		c.hits++
		return m, nil
	}
	m, err := build()
	if err != nil {
		return nil, err
	}
	c.models[key] = m
	return m, nil
}

// Forget removes the model stored under key.
func (c *Cache[K]) Forget(key K) {
	delete(c.models, key)
}

// Len returns the number of models in the cache.
func (c *Cache[K]) Len() int {
	return len(c.models)
}

// Hits returns the number of calls to [Cache.Get] which found a stored
// model.
func (c *Cache[K]) Hits() int {
	return c.hits
}
