package store

import "testing"

func TestImageKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"pizza", "pizza.jpg"},
		{"Mango Milkshake", "mango_milkshake.jpg"},
		{"  Potatoe Fries ", "potatoe_fries.jpg"},
		{"crème brûlée", "crème_brûlée.jpg"},
		{"mac/cheese", "mac_cheese.jpg"},
		{"../../etc/passwd", ".._.._etc_passwd.jpg"},
		{`soup\stock`, "soup_stock.jpg"},
	}
	for _, tt := range tests {
		if got := ImageKey(tt.name); got != tt.want {
			t.Fatalf("ImageKey(%q): want %q got %q", tt.name, tt.want, got)
		}
	}
}
