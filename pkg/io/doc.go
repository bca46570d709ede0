// Package io reads and writes the files phylo works with: distance
// matrices (JSON or TOML), genotype samples and parenthesized expressions.
//
// # Matrix Files
//
// A matrix file lists its labels and the upper triangle of distances. Pairs
// may be given in either orientation; missing pairs stay unset:
//
//	{
//	  "labels": ["a", "b", "c"],
//	  "distances": {
//	    "a": {"b": 6, "c": 26},
//	    "b": {"c": 26}
//	  }
//	}
//
// The same matrix in TOML:
//
//	labels = ["a", "b", "c"]
//
//	[distances.a]
//	b = 6.0
//	c = 26.0
//
//	[distances.b]
//	c = 26.0
//
// The "labels" list is optional; it only matters for labels that have no
// distances yet. The format is chosen from the file extension by
// [FormatFromPath].
//
// # Sample Files
//
// One genotype per line, label first, then the bits:
//
//	# three taxa, eight sites
//	a 01100101
//	b 01100111
//	c 11000001
//
// Blank lines and lines starting with '#' are ignored.
//
// # Expression Files
//
// One parenthesized expression per line, with the same comment rules as
// sample files. [ReadExprs] returns them in file order without parsing them.
package io
