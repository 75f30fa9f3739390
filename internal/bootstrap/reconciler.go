// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/bobishh/quitter/pkg/reconcile"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/sirupsen/logrus"
)

// InitReconciler creates the shared-link reconciler backed by the catalog.
// Theme references that the catalog does not know are dropped.
func InitReconciler(catalog *service.Catalog) *reconcile.Reconciler {
	r := reconcile.NewReconciler(catalog, reconcile.Config{
		Themes: catalog,
	})
	logrus.Infof("initialized reconciler")
	return r
}
