// Package datablock implements the five-field record carried inside every
// envelope:
//
//	DataBlock := LV(Time) LV(Nonce) LV(PreKeyContext) LV(Data) LV(DataHash)
//
// Position is the schema; fields carry no tags. Time is an RFC 3339 UTC
// timestamp, Nonce is 32 random bytes, PreKeyContext names the symmetric key
// in use, Data is the application payload and DataHash is its digest.
//
// Data and DataHash are set together by [New] and cannot be changed
// afterwards. [DataBlock.CheckDataHash] recomputes the digest and compares
// it in constant time.
package datablock
