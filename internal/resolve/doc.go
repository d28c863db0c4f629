// Package resolve turns a config request (a base folder, config names and
// command-line overrides) into the ordered list of .gin files to load, the
// sanitized overrides, and the merged effective store.
//
// Resolution runs in four steps, each of which can abort the run:
//
//  1. Discovery: every requested name, preceded by the implicit "base",
//     is looked up by filename stem under each search root in turn.
//  2. Sanitization: bare override values such as `scene.name=forest` are
//     quoted so they parse as strings.
//  3. Constraints: mandatory folders must contribute at least one file,
//     mutually exclusive folders at most one.
//  4. Merge: files are applied in order, then overrides; later wins.
package resolve
