/*
Package pubkey defines the 32-byte public key type used to address every
asset, tree, creator, and owner in the engine, and the pure PDA
derivation function the compressed-NFT transaction processor uses to
name an asset from its tree and leaf index.

Keys render as base58 (the convention of the chain this engine indexes),
using github.com/mr-tron/base58, the same encoding library the rest of
the example corpus's Solana-adjacent tooling uses.
*/
package pubkey
