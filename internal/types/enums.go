package types

type PlatformName string

const (
	PlatformAndroid PlatformName = "android"
	PlatformIOS     PlatformName = "ios"
)

type HookName string

const (
	HookPrelink    HookName = "prelink"
	HookPostlink   HookName = "postlink"
	HookPreunlink  HookName = "preunlink"
	HookPostunlink HookName = "postunlink"
)

type ParamType string

const (
	ParamTypeInput    ParamType = "input"
	ParamTypePassword ParamType = "password"
	ParamTypeConfirm  ParamType = "confirm"
	ParamTypeList     ParamType = "list"
)
