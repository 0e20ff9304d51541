// Copyright 2020 Aleksandr Demakin. All rights reserved.

/*
Package posit implements posit arithmetic of configurable width.

A posit<nbits, es> is a signed number with tapered precision: values close
to one get more fraction bits, very large and very small values get fewer.
The pattern of a posit holds a sign bit, a regime, up to es exponent bits
and a fraction:

	value = (-1)^s * useed^k * 2^e * (1 + f), useed = 2^(2^es)

Negative posits are the two's complement of their absolute values, so posits
are ordered like their patterns read as signed integers. The pattern 100...0
is NaR (Not-a-Real), the single exceptional value.

# Formats

Every posit belongs to a Format, created from a Config:

	f, err := posit.New(posit.Config{NBits: 16, ES: 1, Backend: posit.IntBackend(32)})

The backend selects how the operations are computed: with machine integers
(bit-exact), with float64 or with binary fixed-point numbers. All results are
rounded to the nearest posit, ties to even, exactly once. Non-zero results
never round to zero or NaR, they saturate at minpos and maxpos.

# Quire

A Quire accumulates sums of products exactly. It is rounded to a posit only
when its value is read, which makes dot products independent of the order
of the terms:

	q := f.NewQuire()
	for i := range xs {
		if err := q.AddProduct(xs[i], ys[i]); err != nil {
			return err
		}
	}
	res := q.ToPosit()

Format.DotProduct and Format.Sum do the same with several goroutines.
*/
package posit
