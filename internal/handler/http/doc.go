// Package http exposes the synchronization protocol over REST.
//
// Tracked collections hang off their parents: notebooks are reachable both
// nested under a user (/api/users/{username}/notebooks) and through the
// aggregate root (/api/notebooks); notes live under a notebook. Each tracked
// collection offers a live listing, a /deleted archive of tombstones, and
// item-level create/retrieve/update/delete. Listings accept since/until
// window parameters, writes accept the at conditional parameter, and archive
// responses that may be missing evicted or expired tombstones are served
// with status 206.
package http
