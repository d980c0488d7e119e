package migrations

var RunFS = runFS
