package main

import "math"

// Vec2 は戦場の2D座標・ベクトル。zは持たない（描画順は表示側の責務）。
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized は単位ベクトルを返す。ゼロベクトルはそのまま返す。
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l <= 1e-9 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Length()
}

// Midpoint は2点の中間点を返す
func Midpoint(a, b Vec2) Vec2 {
	return Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
