/*
Package cache is a small key/value layer for upstream responses that
are worth keeping for a while, such as place reviews.

Every value is stored along with a refresh deadline, and readers get
the deadline back with the value. An entry whose deadline has passed
is of no use to its reader, which fetches afresh. Backends let go of
entries some time after their deadline (see Expiry), or sooner if they
need the room.
*/
package cache
