// Package emitter renders generation plans into Python modules and places
// them on disk. Each model yields two artifacts: a base module holding
// <Model>FactoryBase, rewritten on every run, and an override module holding
// <Model>Factory, written once and then left to the user. Each app gets an
// index __init__.py importing every factory.
//
// Layout under the root directory:
//
//	<root>/__init__.py
//	<root>/<app>/__init__.py          index, rewritten
//	<root>/<app>/<model>.py           override, create-if-absent
//	<root>/<app>/base/__init__.py
//	<root>/<app>/base/<model>.py      base, rewritten
package emitter
