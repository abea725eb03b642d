/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing algorithms
around scanners, parsers, etc. These kinds of algorithms are often more straightforward
to describe as set constructions and operations.

A Set may be iterated while it grows: items added during an iteration will be
visited by the same iteration. This makes a Set usable as a worklist for
fixpoint computations like the closure of LR items.

Set elements must be comparable (usable as map keys). Every set carries a
comparator which defines a total order on its elements; Values() returns
elements in that order, independent of insertion order.

Unusually, Union is destructive!

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
