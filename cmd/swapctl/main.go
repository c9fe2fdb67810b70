package main

import "swapd/internal/swapctl"

func main() { swapctl.Main() }
