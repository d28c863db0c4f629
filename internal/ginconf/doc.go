// Package ginconf holds the effective configuration store for a generation run
// and the parser for the .gin declaration files that populate it.
//
// A .gin file is an ordered list of statements:
//
//	# comment
//	include 'shared/weather.gin'
//	import infinigen.assets       (accepted, ignored)
//	TERRAIN_SCALE = 2.5           (macro, referenced as %TERRAIN_SCALE)
//	compose_scene.trees = True
//	forest/populate.density = [0.1, 0.2, %TERRAIN_SCALE]
//	Terrain.mesher = @OpaqueSphericalMesher
//
// Statements are applied to a Store in order; a later binding for the same key
// replaces the earlier one. Overrides supplied on the command line use the
// same grammar and are applied after every file.
//
// Values are decoded by a literal evaluator built on the CUE parser: only
// literal syntax is accepted (numbers, strings in either quote style, booleans,
// None/null, lists, tuples, dicts). @references and %macros are recognised by
// the .gin layer before literal evaluation.
package ginconf
