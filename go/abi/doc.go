// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package abi implements the binary calling convention of EVM contracts. It
// encodes Go values into the argument layout expected by a contract method
// and decodes return data back into Go values, following the head/tail
// layout rules of the Ethereum contract ABI bit for bit.
package abi
