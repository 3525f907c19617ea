package main

import "github.com/brenotorrezani-space/quest-supremacy-irl/cmd/lq/root"

func main() {
	root.Execute()
}
